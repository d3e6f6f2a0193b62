/*
Package observability provides Prometheus instrumentation for the water jug service.

It counts solve outcomes and cache lookups and records solve latency and
solution length, exposing everything through a dedicated registry so tests and
embedders do not collide with the global default registry.
*/
package observability
