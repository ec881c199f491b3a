// Package inmemdb implements the repositories in memory. Data is lost when the process exits.
package inmemdb

import (
	"sync"

	"github.com/trezcool/classportal/core/announcement"
	"github.com/trezcool/classportal/core/attendance"
	"github.com/trezcool/classportal/core/student"
	"github.com/trezcool/classportal/core/user"
)

type (
	DB struct {
		user         *userTable
		student      *studentTable
		attendance   *attendanceTable
		announcement *announcementTable
	}

	// tables keep rows in insertion order

	userTable struct {
		sync.RWMutex
		rows []user.User
	}

	studentTable struct {
		sync.RWMutex
		rows []student.Student
	}

	attendanceTable struct {
		sync.RWMutex
		rows []attendance.Record
	}

	announcementTable struct {
		sync.RWMutex
		rows []announcement.Announcement
	}
)

func Open() *DB {
	return &DB{
		user:         new(userTable),
		student:      new(studentTable),
		attendance:   new(attendanceTable),
		announcement: new(announcementTable),
	}
}
