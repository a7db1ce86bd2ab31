// Package config provides configuration management for the designspace CLI.
//
// Configuration is layered with viper. Sources, highest priority first:
//
//  1. Command-line flags
//  2. Environment variables (DESIGNSPACE_SOURCE_KIND, DESIGNSPACE_LOG_LEVEL, ...)
//  3. An optional configuration file (--config)
//  4. Default values
//
// Example usage:
//
//	v := config.New()
//	config.AddFlags(cmd.PersistentFlags())
//	if err := config.BindFlags(v, cmd.PersistentFlags()); err != nil {
//	    return err
//	}
//	cfg, err := config.Load(v, configFile)
//	if err != nil {
//	    return err
//	}
//
// Configuration Validation:
//
// Load validates the merged configuration:
//   - source.kind is one of file, builtin, configmap or designspace
//   - the keys each kind needs are set (path for file, name and namespace
//     for the Kubernetes kinds)
//   - log.level is a known level
package config
