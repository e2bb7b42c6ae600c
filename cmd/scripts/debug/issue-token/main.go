package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/folio/pkg/auth"
	"github.com/shishobooks/folio/pkg/config"
)

func main() {
	log := logger.New()

	var opts struct {
		Subject string `short:"s" long:"subject" default:"reader" description:"Who the token is for"`
		Scopes  string `long:"scopes" default:"read,write" description:"Comma separated scopes"`
	}

	if _, err := flags.Parse(&opts); err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	var scopes []string
	for _, s := range strings.Split(opts.Scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	if len(scopes) == 0 {
		fmt.Println("at least one scope is required")
		os.Exit(1)
	}

	token, err := auth.NewService(cfg.JWTSecret, cfg.TokenExpiry).GenerateToken(opts.Subject, scopes)
	if err != nil {
		log.Err(err).Fatal("token error")
	}

	fmt.Println(token)
}
