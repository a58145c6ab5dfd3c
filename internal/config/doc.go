// Package config provides centralized configuration for the SOPulse
// survey analytics service.
//
// Configuration is loaded from three layers, in increasing precedence:
//
//  1. Struct-tag defaults
//  2. A YAML config file (config.yaml, or SOPULSE_CONFIG)
//  3. Environment variables with the SOPULSE_ prefix
//
// The package also owns the static lookup tables the aggregation core
// treats as externally supplied constants: the work-mode synonym map,
// the company-size rank table, the framework cohort membership sets,
// clip percentile bounds and the pre/post period boundary years.
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Analytics.TopLanguages)
package config
