// Package compiler drives the parser and checker over a set of schema files.
//
// Files are independent of each other, so they are processed concurrently with
// a bounded number of workers. Results always come back in the order the paths
// were given, which keeps reports stable between runs.
//
//	c := compiler.New(compiler.Options{Logger: logger})
//	results, err := c.Compile(ctx, files, document.JSON, func(src string) string {
//		return proj.OutputPath(src, document.JSON)
//	})
//	if err != nil {
//		return err
//	}
//
//	if compiler.Failed(results) > 0 {
//		return compiler.Report(os.Stderr, results)
//	}
package compiler
