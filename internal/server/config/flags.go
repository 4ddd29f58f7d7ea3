package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-g string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-b string   storage backend: postgres, mongo or memory
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      reset token validity, minutes
//	-m string   mailer: log, smtp or ses
//	-l string   log level
//
// Duration flags are integers in minutes and only override the current
// value when given explicitly.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-b", "-s", "-t", "-r", "-m", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	resetTokenValidity := fs.Int("r", int(config.ResetTokenValidityDuration.Minutes()), "reset token validity (in minutes)")

	fs.StringVar(&config.Mailer, "m", config.Mailer, "mailer backend")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only explicitly given durations are applied, so sub-minute values from
	// the JSON file or environment survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
		case "r":
			config.ResetTokenValidityDuration = time.Duration(*resetTokenValidity) * time.Minute
		}
	})
}
