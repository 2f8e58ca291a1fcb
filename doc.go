// Package comptes manages personal financial accounts as an append-mutable
// ledger. Every transaction carries a signed amount and a cached running
// balance per account; some transactions pin the balance instead (the amount
// is derived), and some are structurally paired (transfers, capital
// contributions) so that editing one side keeps the other consistent.
//
// The core functionalities include:
//   - Balance Engine: recomputing per-transaction running balances and
//     per-account aggregates after any insert, update or delete, with special
//     handling of pinned-balance revaluation rows.
//   - Transfer Synchronization: maintaining linked debit/credit transaction
//     pairs for transfers and capital contributions.
//   - QIF Import: a line-oriented state machine turning QIF files into
//     accounts and transactions, including the decoding of structured
//     sub-operations embedded in free-text memos.
//   - Wallet Reconstruction: deriving brokerage stock positions from the
//     ordered transaction history, materialized as replace-all snapshots.
//   - Data Persistence: encoding and decoding the whole ledger to and from a
//     human-readable, version-controllable JSONL file.
//
// This package serves as the foundational logic for the `cts` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package comptes
