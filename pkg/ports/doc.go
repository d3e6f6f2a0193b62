/*
Package ports defines the driven ports (interfaces) of the water jug service.

These interfaces decouple the service facade from external implementations,
allowing solve results to be cached in process or in a shared backend.

# Key Interfaces

  - Cache: Stores solve responses keyed by (X, Y, Z) with absolute and sliding expiration.
*/
package ports
