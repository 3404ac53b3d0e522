/*
Package types defines the core data structures shared across the JIMM
operator.

It contains the domain model the other packages build on:

  - Status: the four-state user-visible workload status
    (active, waiting, blocked, maintenance) plus a short message
  - Layer, Service, Check, Plan: the declarative service description
    held by the workload agent
  - RequiredSettings: the ordered list of environment variables a
    runnable workload must carry
  - The fixed filesystem paths of the secret artifacts and the
    dashboard tree on the workload

Types here carry no behavior beyond trivial accessors; all convergence
logic lives in the packages that consume them.
*/
package types
