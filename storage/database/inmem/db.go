package inmemdb

import (
	"sync"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/attendance"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/grade"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/student"
)

type (
	DB struct {
		student    *studentTable
		attendance *attendanceTable
		grade      *gradeTable
		report     *reportTable
	}

	studentTable struct {
		mutex sync.RWMutex
		table map[string]*student.Student
	}

	attendanceTable struct {
		mutex sync.RWMutex
		table map[string]*attendance.Mark
	}

	gradeTable struct {
		mutex sync.RWMutex
		table map[string]*grade.Mark
	}

	reportTable struct {
		mutex sync.RWMutex
		rows  []importing.Report
	}
)

func Open() (*DB, error) {
	db := &DB{
		student:    &studentTable{table: make(map[string]*student.Student)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Mark)},
		grade:      &gradeTable{table: make(map[string]*grade.Mark)},
		report:     &reportTable{},
	}
	return db, nil
}
