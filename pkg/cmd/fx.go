package cmd

import (
	"log/slog"

	"go.uber.org/fx"
)

var Module = fx.Module("cli",
	fx.Provide(
		func() *slog.LevelVar { return new(slog.LevelVar) },
		newLogger,
		fx.Annotate(checkCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(compileCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(fmtCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(initCmd, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)
