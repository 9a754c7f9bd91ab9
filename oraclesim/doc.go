// Package oraclesim serves the oracle protocol over HTTP from simulated
// graphs, so the solver can be run end to end without the contest server.
//
// Every team id gets its own oracle.Local session. Routes:
//
//	POST /select   {"id", "problemName"}         -> {"problemName"}
//	POST /explore  {"id", "plans"}               -> {"results", "queryCount"}
//	POST /guess    {"id", "map"}                 -> {"correct"}
//	GET  /healthz                                -> {"status": "ok"}
//	GET  /metrics                                   Prometheus exposition
//
// Failures answer {"error": "..."} with status 400.
package oraclesim
