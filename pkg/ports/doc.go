/*
Package ports defines the interfaces between the optimizer core and the
outside world: the stat-calculation oracle, tree data loading, run
persistence and progress reporting.

Adapters (HTTP oracle clients, redis stores, in-memory fakes) implement
these interfaces; the search core depends only on this package and on
domain, never on a concrete adapter.
*/
package ports
