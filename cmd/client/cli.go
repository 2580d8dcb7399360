package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/filestore/scheduler/core/protocol"
	"github.com/filestore/scheduler/core/request"
	"github.com/urfave/cli/v2"
)

func dial(ctx *cli.Context) (net.Conn, error) {
	addr := fmt.Sprintf("%s:%d", ctx.String("host"), ctx.Int("port"))
	return net.DialTimeout("tcp", addr, 5*time.Second)
}

var putCmd = &cli.Command{
	Name:  "put",
	Usage: "store a local file on the server under --remote-name",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Required: true,
			Usage:    "local file to read",
		},
		&cli.StringFlag{
			Name:     "remote-name",
			Required: true,
			Usage:    "filename to store it under on the server",
		},
	},
	Action: func(ctx *cli.Context) error {
		data, err := os.ReadFile(ctx.String("file"))
		if err != nil {
			return err
		}

		text := strings.TrimSuffix(string(data), "\n")
		var lines []string
		if text != "" {
			lines = strings.Split(text, "\n")
		}

		conn, err := dial(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		w := bufio.NewWriter(conn)
		remoteName := ctx.String("remote-name")
		size := request.Size(lines)

		if err := protocol.SendLine(w, protocol.CmdPUT+" "+remoteName); err != nil {
			return err
		}
		if err := protocol.SendLine(w, protocol.ReplySize(size)); err != nil {
			return err
		}
		if err := protocol.SendFile(w, lines, len(lines)+1); err != nil {
			return err
		}

		r := bufio.NewReader(conn)
		reply, err := protocol.RecvLine(r)
		if err != nil {
			return err
		}

		log.Info(reply)
		return nil
	},
}

var getCmd = &cli.Command{
	Name:  "get",
	Usage: "retrieve a file from the server",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "remote-name",
			Required: true,
			Usage:    "filename to fetch from the server",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "local path to write the result to; defaults to stdout",
		},
	},
	Action: func(ctx *cli.Context) error {
		conn, err := dial(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		w := bufio.NewWriter(conn)
		remoteName := ctx.String("remote-name")
		if err := protocol.SendLine(w, protocol.CmdGET+" "+remoteName); err != nil {
			return err
		}

		r := bufio.NewReader(conn)
		status, err := protocol.RecvLine(r)
		if err != nil {
			return err
		}

		if strings.HasPrefix(status, protocol.ReplyErr) {
			log.Info(status)
			return nil
		}

		sizeLine, err := protocol.RecvLine(r)
		if err != nil {
			return err
		}

		fields := strings.Fields(sizeLine)
		var declared int64
		if len(fields) == 2 {
			declared, _ = strconv.ParseInt(fields[1], 10, 64)
		}

		lines, err := protocol.RecvFile(r, declared)
		if err != nil {
			return err
		}

		out := os.Stdout
		if path := ctx.String("out"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		for _, line := range lines {
			fmt.Fprintln(out, line)
		}

		return nil
	},
}
