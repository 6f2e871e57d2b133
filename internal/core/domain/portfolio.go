package domain

// PortfolioSnapshot is a read-only view of everything a user owns that a
// currency conversion would rewrite: the user's currency setting, all
// accounts, budgets and goals, plus the most recent transactions.
type PortfolioSnapshot struct {
	User               User          `json:"user"`
	Accounts           []Account     `json:"accounts"`
	Budgets            []Budget      `json:"budgets"`
	Goals              []Goal        `json:"goals"`
	RecentTransactions []Transaction `json:"recentTransactions"`
}
