// Package config loads settings for the reactive CLI.
//
// Settings live in reactive.json or reactive.yaml in the working
// directory, or in a file named with --config. Every field is optional;
// missing fields keep the defaults from New. Environment variables with
// the REACTIVE_ prefix override the file.
//
// # Configuration File Structure
//
//	{
//	  "name": "demo",
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "runtime": {
//	    "maxEffectRuns": 10000
//	  },
//	  "inspect": {
//	    "addr": ":7070",
//	    "eventBuffer": 64,
//	    "tick": "1s"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "reactive"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "reactive"
//	  }
//	}
//
// # Environment
//
//	REACTIVE_NAME                 name
//	REACTIVE_LOG_LEVEL            log.level
//	REACTIVE_LOG_FORMAT           log.format
//	REACTIVE_MAX_EFFECT_RUNS      runtime.maxEffectRuns
//	REACTIVE_INSPECT_ADDR         inspect.addr
//	REACTIVE_INSPECT_TICK         inspect.tick
//	REACTIVE_METRICS_ENABLED      metrics.enabled
//	REACTIVE_METRICS_NAMESPACE    metrics.namespace
//	REACTIVE_TRACING_ENABLED      tracing.enabled
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Inspector:", cfg.Inspect.Addr)
package config
