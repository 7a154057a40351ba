// Package services contains the application core: the ingestion
// pipeline, the vector index and the retrieve-then-generate
// orchestrator. Services implement the driving ports and depend only on
// domain types and driven port interfaces; adapters are injected at
// construction and held for the service's lifetime.
package services
