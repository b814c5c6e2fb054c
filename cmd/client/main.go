package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/GophStay/internal/client/api"
	"github.com/atinyakov/GophStay/internal/client/session"
	"github.com/atinyakov/GophStay/internal/client/shell"
	"github.com/atinyakov/GophStay/internal/config"
	"github.com/atinyakov/GophStay/internal/logger"
)

var (
	version   string
	buildDate string
)

// expiryCheck is how often the stored token is checked for expiry.
const expiryCheck = 30 * time.Second

// openStorage picks the session backend: Postgres when a DSN is set, else a
// file when a path is set, else memory. A passphrase encrypts whichever was
// picked. The returned func releases it.
func openStorage(opts *config.Options) (session.Storage, func(), error) {
	var (
		inner   session.Storage
		closeFn = func() {}
	)
	switch {
	case opts.SessionDSN != "":
		db, err := session.InitPostgres(opts.SessionDSN)
		if err != nil {
			return nil, nil, err
		}
		inner = session.NewSQLStorage(db)
		closeFn = func() { _ = db.Close() }
	case opts.SessionFile != "":
		fs, err := session.OpenFileStorage(opts.SessionFile)
		if err != nil {
			return nil, nil, err
		}
		inner = fs
	default:
		inner = session.NewMemoryStorage()
	}

	if opts.Passphrase == "" {
		return inner, closeFn, nil
	}
	enc, err := session.NewEncryptedStorage(inner, opts.Passphrase)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return enc, closeFn, nil
}

func run(opts *config.Options) error {
	l := logger.New()
	if err := l.Init(opts.LogLevel, opts.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = l.Log.Sync() }()

	storage, closeStorage, err := openStorage(opts)
	if err != nil {
		return fmt.Errorf("open session storage: %w", err)
	}
	defer closeStorage()

	store := session.NewStore(storage, session.WithLogger(l.Log))

	httpClient, err := api.NewHTTPClient(opts.CAFile, opts.Timeout)
	if err != nil {
		return err
	}
	client := api.New(opts.APIURL, store, api.WithHTTPClient(httpClient), api.WithLogger(l.Log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.StartExpiryWatcher(ctx, store, expiryCheck, l.Log)

	l.Log.Info("starting shell",
		zap.String("api", opts.APIURL),
		zap.Bool("persistent_session", opts.SessionFile != "" || opts.SessionDSN != ""),
		zap.Bool("encrypted_session", opts.Passphrase != ""))

	env := shell.NewEnv(store, client, shell.NewPrompter(os.Stdin, os.Stdout), l.Log)
	err = shell.New(ctx, env).Run(ctx, "/")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// main parses configuration and runs the interactive shell.
func main() {
	opts, err := config.Parse(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	if opts.ShowVersion {
		fmt.Printf("GophStay Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}
