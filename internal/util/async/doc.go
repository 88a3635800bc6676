// Package async provides utilities for parallel task execution with
// per-task outcome collection.
//
// [RunAll] executes independent operations concurrently, never stops on a
// failure and reports the outcome of every task. It is used to fan out
// patches against disjoint records.
package async
