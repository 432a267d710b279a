//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/weegigs/wee-store-go/samples/app"
	"github.com/weegigs/wee-store-go/support"
)

func memory(ctx context.Context, config support.Config) (*app.App, func(), error) {
	panic(wire.Build(app.Memory))
}

func live(ctx context.Context, config support.Config) (*app.App, func(), error) {
	panic(wire.Build(app.Live))
}

func local(ctx context.Context, config support.Config) (*app.App, func(), error) {
	panic(wire.Build(app.Local))
}
