package model

import "time"

// BalanceSnapshot is the aggregate of the whole scope window, not of a page.
type BalanceSnapshot struct {
	FetchedAt time.Time
	Scope     Scope
	Income    int64
	Outcome   int64
	Net       int64
}

// Session is the persisted sign-in state.
type Session struct {
	CreatedAt time.Time
	Token     string
	UserName  string
	Email     string
}
