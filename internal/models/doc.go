// Package models defines the core domain models for the Dutch Pay engine.
//
// # Models
//
//   - Group: a set of participants sharing expenses, joinable by invite code
//   - Participant: a named party in a group, optionally claimed by a User
//   - Expense: a shared cost with one payer and an ordered list of ExpenseShares
//   - ExpenseShare: one participant's owed amount within one expense
//   - Obligation: a derived, cross-expense debt from one participant to another
//   - User: a registered account that can claim participants
//
// All money values are int64 amounts in the smallest currency unit.
// Timestamps are Unix seconds; zero means unset.
//
// Relationships use ID strings instead of pointers.
package models
