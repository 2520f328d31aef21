// Package config provides configuration management for the Iris classifier.
//
// Configuration is loaded from environment variables using the env package.
// A .env file in the working directory, if present, is loaded first and never
// overrides variables already set in the environment.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on :%d\n", cfg.HTTPPort)
package config
