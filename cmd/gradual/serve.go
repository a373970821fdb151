package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/funvibe/gradual/internal/server"
)

const defaultAddr = "127.0.0.1:7474"

func cmdServe(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", defaultAddr, "address to listen on")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	table, err := loadTable(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	srv, err := server.New(table)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	fmt.Fprintf(stdout, "serving %s on %s\n", server.ServiceName, lis.Addr())
	if err := srv.Serve(lis); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

// rpcMethod maps REPL-style command names onto service methods.
func rpcMethod(name string) string {
	switch strings.ToLower(name) {
	case "sub", "subtype":
		return "Subtype"
	case "equiv":
		return "Equiv"
	case "lub":
		return "Lub"
	case "glb":
		return "Glb"
	case "call":
		return "Call"
	case "arg", "argtype":
		return "ArgType"
	}
	return name
}

func cmdQuery(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", defaultAddr, "lattice server address")
	timeout := fs.Duration("timeout", 5*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		methods, _ := server.Methods()
		fmt.Fprintf(stderr, "usage: gradual query [--addr host:port] <method> args...\nmethods: %s\n", strings.Join(methods, ", "))
		return 2
	}

	client, err := server.Dial(*addr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	reply, err := client.Request(ctx, rpcMethod(fs.Arg(0)), fs.Args()[1:])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	fmt.Fprintln(stdout, server.FormatReply(reply))
	return 0
}
