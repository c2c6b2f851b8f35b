// Package schedule runs periodic maintenance jobs on cron schedules.
package schedule
