// Package model defines the data shared by every layer of webrecon: job
// configurations and their validation, the row emitted per request, job
// metrics, findings and the JobReport that is persisted and rendered.
//
// The package depends on nothing else in the module so the engine,
// pipeline, database and report packages can all import it.
package model
