// Package services holds the business logic between the HTTP controllers and
// the repositories. Each service depends on narrow store interfaces declared
// next to it, satisfied by the concrete repositories at wire-up time.
//
// Services defined in this package:
// - AuthService: login flows and password changes
// - UserService: account administration
// - StudentService: student roster management
// - BrigadeService: brigade management
// - EventService: events, event days and the current-day lookup
// - AttendanceService: session marking and queries
// - NotificationService: announcements and per-user read state
// - AnalyticsService: role-specific dashboard statistics
package services
