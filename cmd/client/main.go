package main

import (
	"os"

	"github.com/filestore/scheduler/lib/logger"
	"github.com/urfave/cli/v2"
)

var log, _ = logger.New("client")

func main() {
	app := &cli.App{
		Name:  "filestore-client",
		Usage: "PUT/GET client for the file-storage server's wire protocol",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Value: "127.0.0.1",
				Usage: "server host",
			},
			&cli.IntFlag{
				Name:  "port",
				Value: 9000,
				Usage: "server port",
			},
		},
		Commands: []*cli.Command{putCmd, getCmd},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}
