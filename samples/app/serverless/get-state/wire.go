//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/weegigs/wee-store-go/support"
)

func live(ctx context.Context, config support.Config) (GatewayHandler, error) {
	panic(wire.Build(Live))
}
