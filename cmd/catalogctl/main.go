package main

// catalogctl queries a running web server's gRPC catalog API.

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"streamflix/internal/rpc"
)

func printUsage() {
	fmt.Println("Usage: catalogctl [OPTIONS] COMMAND [ARG]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  featured              Show the featured title")
	fmt.Println("  get ID                Show one title")
	fmt.Println("  category TAG          List the titles of a category")
	fmt.Println("  search QUERY          Search titles, descriptions and genres")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
}

func main() {
	addr := flag.String("addr", "localhost:9090", "Address of the gRPC catalog API")
	timeout := flag.Duration("timeout", 5*time.Second, "Request timeout")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(2)
	}
	cmd, arg := flag.Arg(0), flag.Arg(1)
	if cmd != "featured" && flag.NArg() != 2 {
		fmt.Printf("Error: %s takes one argument\n", cmd)
		os.Exit(2)
	}

	client, conn, err := rpc.Dial(*addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: dial:", err)
		os.Exit(1)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var out proto.Message
	switch cmd {
	case "featured":
		out, err = client.FeaturedRaw(ctx)
	case "get":
		out, err = client.GetRaw(ctx, arg)
	case "category":
		out, err = client.ByCategoryRaw(ctx, arg)
	case "search":
		out, err = client.SearchRaw(ctx, arg)
	default:
		fmt.Println("Error: Unknown command:", cmd)
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		if status.Code(err) == codes.NotFound {
			fmt.Fprintln(os.Stderr, status.Convert(err).Message())
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(out)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: encode:", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
