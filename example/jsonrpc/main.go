// Command jsonrpc embeds the batch engine in a custom server with an extra
// method next to the built-in ones.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mnehpets/jsonrpcd/config"
	"github.com/mnehpets/jsonrpcd/jsonrpc"
	"github.com/mnehpets/jsonrpcd/methods"
	"github.com/mnehpets/jsonrpcd/server"
)

type MathMethods struct{}

type AddParams struct {
	A int `json:"a"`
	B int `json:"b"`
}

func (m *MathMethods) Add(ctx context.Context, p AddParams) (int, error) {
	return p.A + p.B, nil
}

type DivParams struct {
	_ struct{} `jsonrpc:"div"`
	A int      `json:"a"`
	B int      `json:"b"`
}

func (m *MathMethods) Div(ctx context.Context, p DivParams) (int, error) {
	if p.B == 0 {
		return 0, jsonrpc.NewError(jsonrpc.CodeServerError, "division by zero")
	}
	return p.A / p.B, nil
}

func main() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load("", nil)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	reg := jsonrpc.NewRegistry()
	methods.NewService(cfg.AreaCodes).Register(reg)
	reg.Register("math", &MathMethods{})
	reg.HandleFunc("ping", func(_ context.Context, _ *jsonrpc.Request, resp jsonrpc.Response) jsonrpc.Response {
		_ = resp.SetResult("pong")
		return resp
	})

	srv, err := server.New(cfg, reg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("build server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}
