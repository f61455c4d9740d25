// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never talk to a provider SDK directly; every AI call goes
// through driven.Generator.
package services
