// Package services implements the driving port interfaces.
// Services contain the pipeline logic and orchestrate
// calls to driven ports (adapters).
//
// Services import domain, the port packages and internal/logger; adapters are
// injected by the composition root.
package services
