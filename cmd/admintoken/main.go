// Command admintoken mints a short-lived bearer token for the
// /v1/admin endpoints, signed with JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/Husnain-278/EventHub/internal/config"
	"github.com/Husnain-278/EventHub/internal/middleware"
	"github.com/Husnain-278/EventHub/internal/utils"
)

func main() {
	subject := flag.String("sub", "admin", "token subject")
	role := flag.String("role", middleware.RoleAdmin, "role claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	logger := log.New("admintoken")
	if err := config.LoadDotEnv(); err != nil {
		logger.Warnj(log.JSON{"msg": "could not read .env", "error": err.Error()})
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatalj(log.JSON{"msg": "JWT_SECRET is not set"})
	}
	tok, err := utils.NewAccessToken(secret, *subject, *role, *ttl)
	if err != nil {
		logger.Fatalj(log.JSON{"msg": "sign token", "error": err.Error()})
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
}
