package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Beigelman/house-crawler/internal/collect"
	"github.com/Beigelman/house-crawler/internal/config"
	"github.com/Beigelman/house-crawler/internal/fetch"
)

func main() {
	userAgent := flag.String("ua", fetch.DefaultUserAgent, "user agent matched against robots.txt groups")
	listings := flag.Bool("listings", false, "also check the configured listing URLs")
	flag.Parse()

	targets := flag.Args()
	if *listings {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		for _, t := range collect.Targets(cfg) {
			targets = append(targets, t.ListURL)
		}
	}
	if len(targets) == 0 {
		fmt.Fprintln(os.Stderr, "usage: robotscheck [-ua agent] [-listings] url...")
		os.Exit(2)
	}

	p := fetch.NewPoliteness(0, *userAgent)
	ctx := context.Background()
	blocked := 0
	for _, target := range targets {
		verdict := "allowed"
		if !p.Allowed(ctx, target) {
			verdict = "disallowed"
			blocked++
		}
		fmt.Printf("%-10s %s\n", verdict, target)
	}
	if blocked > 0 {
		os.Exit(1)
	}
}
