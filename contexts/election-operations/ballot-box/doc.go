// Package ballotbox implements anonymous ballot composition and the one-shot
// atomic cast inside the election-operations context.
//
// The module owns session guarding, position eligibility filtering, selection
// cardinality enforcement, and the single cast-if-not-already-cast store call,
// plus receipt issuance hand-off and outbox event production. Business rules
// stay in application/domain layers; infrastructure sits behind ports and
// adapters.
package ballotbox
