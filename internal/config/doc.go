// Package config provides configuration parsing for tooltip servers.
//
// The configuration is stored in tooltip.json at the project root.
// This package handles loading, saving, and validating configuration.
// Durations are Go duration strings ("200ms", "5s"); a bare number is
// read as milliseconds.
//
// # Configuration File Structure
//
//	{
//	  "name": "Docs",
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "shutdownTimeout": "5s"
//	  },
//	  "page": {
//	    "body": "page.html",
//	    "stylesheet": "tooltip.css"
//	  },
//	  "templates": {
//	    "paths": ["templates/*.yaml"],
//	    "s3": {"bucket": "ui-assets", "prefix": "tooltips/", "region": "eu-west-1"}
//	  },
//	  "tooltips": [
//	    {"trigger": "save", "content": "Saves a draft", "activation": "hover", "origin": "bottom-left"},
//	    {"trigger": "faq-1", "content": "...", "group": "faq"},
//	    {"trigger": "faq-2", "content": "...", "group": "faq"}
//	  ]
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
