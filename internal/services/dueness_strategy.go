// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for recurring transaction
// dueness checking. Each frequency type (daily, weekly, monthly, yearly) has
// its own strategy that encapsulates the logic for determining if a
// recurring transaction should materialize.

package services

import (
	"fmt"
	"time"

	"financetracker/internal/core"
)

// DuenessChecker is the strategy interface for checking if a recurring
// transaction is due. Each implementation encapsulates the algorithm for a
// specific frequency type.
type DuenessChecker interface {
	// IsDue returns true if the recurring transaction should materialize
	// based on the last materialization time and the current time.
	IsDue(lastApplied, now time.Time, startDate core.Date) bool
}

// DailyChecker implements DuenessChecker for daily recurring transactions.
type DailyChecker struct{}

// IsDue returns true if the last materialization was before today.
func (DailyChecker) IsDue(lastApplied, now time.Time, _ core.Date) bool {
	if lastApplied.IsZero() {
		return true
	}
	lastDate := lastApplied.Format("2006-01-02")
	nowDate := now.Format("2006-01-02")
	return lastDate != nowDate
}

// WeeklyChecker implements DuenessChecker for weekly recurring transactions.
type WeeklyChecker struct{}

// IsDue returns true if 7 or more days have passed since the last materialization.
func (WeeklyChecker) IsDue(lastApplied, now time.Time, _ core.Date) bool {
	if lastApplied.IsZero() {
		return true
	}
	daysSince := now.Sub(lastApplied).Hours() / 24
	return daysSince >= 7
}

// MonthlyChecker implements DuenessChecker for monthly recurring transactions.
type MonthlyChecker struct{}

// IsDue returns true if we're in a new month and have reached the target day.
func (MonthlyChecker) IsDue(lastApplied, now time.Time, startDate core.Date) bool {
	if lastApplied.IsZero() {
		return true
	}

	// Already materialized this month?
	if lastApplied.Year() == now.Year() && lastApplied.Month() == now.Month() {
		return false
	}

	// Check if we've reached the target day of the month
	targetDay := startDate.Day()
	targetDayThisMonth := targetDay
	lastDayOfMonth := core.DaysInMonth(now.Month(), now.Year())
	if targetDay > lastDayOfMonth {
		targetDayThisMonth = lastDayOfMonth
	}

	return now.Day() >= targetDayThisMonth
}

// YearlyChecker implements DuenessChecker for yearly recurring transactions.
type YearlyChecker struct{}

// IsDue returns true if we're in a new year and have reached the target month and day.
func (YearlyChecker) IsDue(lastApplied, now time.Time, startDate core.Date) bool {
	if lastApplied.IsZero() {
		return true
	}

	// Already materialized this year?
	if lastApplied.Year() == now.Year() {
		return false
	}

	targetMonth := startDate.Month()
	targetDay := startDate.Day()

	// Check if we've reached the target month and day
	if now.Month() < targetMonth {
		return false
	}

	if now.Month() == targetMonth {
		lastDayOfMonth := core.DaysInMonth(now.Month(), now.Year())
		targetDayThisMonth := targetDay
		if targetDay > lastDayOfMonth {
			targetDayThisMonth = lastDayOfMonth
		}
		return now.Day() >= targetDayThisMonth
	}

	// We're past the target month
	return true
}

// duenessStrategies maps repetition types to their corresponding checkers.
// This registry enables O(1) lookup and easy extension for new frequency types.
var duenessStrategies = map[core.RepetitionType]DuenessChecker{
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

// GetDuenessChecker returns the appropriate dueness checker for a repetition type.
// Returns an error if the repetition type is not supported.
func GetDuenessChecker(frequency core.RepetitionType) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown repetition type: %s", frequency)
	}
	return checker, nil
}

// RegisterDuenessChecker allows registering custom dueness checkers for new frequency types.
// This supports the Open/Closed principle by allowing extension without modification.
func RegisterDuenessChecker(frequency core.RepetitionType, checker DuenessChecker) {
	duenessStrategies[frequency] = checker
}
