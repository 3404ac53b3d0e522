/*
Package relation models the integration points this controller
publishes data into, as named key/value bags.

A Bag is the writable data bag of one established relation; Relations
resolves a relation name to its bag, returning nil while the relation
is not established. Publication helpers are pure writes into a bag:

  - PublishDashboard: controller URL, identity provider URL, and the
    is-juju marker for dashboard consumers
  - PublishWebsite:   the serving port for HTTP frontends
  - PublishNRPECheck: the check_http command line for the monitoring
    agent, rendered against the unit's ingress address
  - PublishIngress:   service hostname, name, and port for the ingress
    controller

All publications are last-writer-wins overwrites of fixed keys, so
repeating one on every convergence pass is harmless and keeps the
published data current as configuration changes.

Memory is the in-process Relations implementation used by the
standalone binary and the tests; an unestablished relation simply has
no bag, and handlers treat a nil bag as a no-op.
*/
package relation
