package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "generate":
		err = runGenerate(os.Args[2:])
	case "posts":
		err = runPosts(os.Args[2:])
	case "config":
		err = runConfig(os.Args[2:])
	case "version":
		fmt.Printf("feedsite %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`feedsite - markdown blog server and sitemap generator

Usage:
  feedsite <command> [flags]

Commands:
  serve         Serve the JSON API, feeds and the static site
  generate      Write sitemap.xml, sitemap.html and robots.txt to the public dir
  posts         Print the loaded posts as JSON
  config        Print the environment variables feedsite reads
  version       Print the feedsite version
  help          Show this help message

Flags (serve, generate, posts):
  -config <file>    YAML config file; environment variables override it

Examples:
  SITE_DOMAIN=example.com feedsite generate
  feedsite serve -config feedsite.yaml`)
}
