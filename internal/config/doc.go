// Package config provides configuration parsing for weft tools.
//
// The configuration is stored in weft.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "logLevel": "info",
//	  "scheduler": {
//	    "enoughTime": "1ms",
//	    "slice": "16ms",
//	    "idleSleep": "50ms"
//	  },
//	  "inspector": {
//	    "enabled": true,
//	    "addr": "127.0.0.1:7070",
//	    "archive": {
//	      "bucket": "snapshots",
//	      "prefix": "weft/",
//	      "region": "us-east-1"
//	    }
//	  },
//	  "metrics": {
//	    "namespace": "weft"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Slice:", cfg.Slice())
package config
