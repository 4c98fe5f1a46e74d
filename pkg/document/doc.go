// Package document converts checked schemas to and from their serialized
// form.
//
// A Document mirrors the syntax tree field for field but drops every source
// span, since spans only matter for diagnostics. Documents are written as JSON
// (the compiler's default output) or YAML:
//
//	{
//	  "name": "user.mecha",
//	  "tables": [
//	    {
//	      "id": {"name": "user"},
//	      "is_abstract": false,
//	      "extended_by": null,
//	      "columns": [
//	        {
//	          "id": {"name": "id"},
//	          "typ": {"name": "uuid"},
//	          "attribute": "Primary",
//	          "reference": null
//	        }
//	      ],
//	      "indexes": [{"Single": {"name": "id"}}]
//	    }
//	  ]
//	}
//
// Usage:
//
//	doc := document.FromSchema(schema)
//	if err := document.Encode(w, doc, document.JSON); err != nil {
//		return err
//	}
//
//	// and back again
//	doc, err := document.Decode(r, document.JSON)
//	schema, err := doc.Schema()
package document
