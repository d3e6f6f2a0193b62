/*
Package domain contains the core domain models of the water jug service.

It defines the values exchanged between the solver, the service facade and the
adapters (HTTP, MCP, CLI). This package is kept pure and free of external
dependencies like I/O or caching, following Hexagonal Architecture principles.

# Key Entities

  - State: The volumes held by the two jugs at a point of the search.
  - Action: One of the six operations (fill, empty, transfer) applied to a state.
  - SolutionStep: A single externally visible step of a solution.
  - Request / Response: The solve contract shared by every adapter.
  - ValidationError: Every rule a Request violates, with user-facing messages.
*/
package domain
