package student_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/student"
	inmemdb "github.com/Skc-VitInProjects/S.A.F.A.L/storage/database/inmem"
)

func setup(t *testing.T) student.Repository {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return inmemdb.NewStudentRepository(db)
}

func newStudent(first, last, email, roll string) student.Student {
	ns := student.NewStudent{
		FirstName:  first,
		LastName:   last,
		Email:      email,
		RollNumber: roll,
		Gender:     student.DefaultGender,
		Course:     student.DefaultCourse,
		Department: student.DefaultDepartment,
		Semester:   1,
		FeeStatus:  student.DefaultFeeStatus,
	}
	return ns.Student("importer", time.Now())
}

func TestServiceReconcileCreates(t *testing.T) {
	svc := student.NewService(setup(t))

	s, created, err := svc.Reconcile(context.Background(), newStudent("Amit", "Sharma", "amit@school.edu", "CS001"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, student.StatusActive, s.Status)
	assert.Equal(t, student.RiskLow, s.RiskLevel)
}

func TestServiceReconcileUpdatesByEmail(t *testing.T) {
	svc := student.NewService(setup(t))

	first, _, err := svc.Reconcile(context.Background(), newStudent("Amit", "Sharma", "amit@school.edu", "CS001"))
	require.NoError(t, err)

	in := newStudent("Amit", "Sharma", "amit@school.edu", "CS001")
	in.Phone = "9876543210"
	s, created, err := svc.Reconcile(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, s.ID)
	assert.Equal(t, "9876543210", s.Phone)
}

func TestServiceReconcileUpdatesByRollNumber(t *testing.T) {
	svc := student.NewService(setup(t))

	first, _, err := svc.Reconcile(context.Background(), newStudent("Amit", "Sharma", "amit@school.edu", "CS001"))
	require.NoError(t, err)

	// email changed at the source, roll number still identifies the student
	in := newStudent("Amit", "Sharma", "amit.sharma@school.edu", "CS001")
	s, created, err := svc.Reconcile(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, s.ID)
	assert.Equal(t, "amit.sharma@school.edu", s.Email)
}

func TestServiceReconcilePreservesOwnedFields(t *testing.T) {
	repo := setup(t)
	svc := student.NewService(repo)
	ctx := context.Background()

	first, _, err := svc.Reconcile(ctx, newStudent("Amit", "Sharma", "amit@school.edu", "CS001"))
	require.NoError(t, err)

	// downstream scoring owns these fields, imports must not reset them
	first.RiskLevel = student.RiskHigh
	first.RiskScore = 87.5
	first.Status = student.StatusInactive
	_, err = repo.UpdateStudent(ctx, first)
	require.NoError(t, err)

	s, created, err := svc.Reconcile(ctx, newStudent("Amit", "Sharma", "amit@school.edu", "CS001"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, student.RiskHigh, s.RiskLevel)
	assert.Equal(t, 87.5, s.RiskScore)
	assert.Equal(t, student.StatusInactive, s.Status)
	assert.Equal(t, first.CreatedBy, s.CreatedBy)
	assert.Equal(t, first.CreatedAt, s.CreatedAt)
}

func TestServiceReconcileAmbiguousMatch(t *testing.T) {
	svc := student.NewService(setup(t))
	ctx := context.Background()

	a, _, err := svc.Reconcile(ctx, newStudent("Amit", "Sharma", "amit@school.edu", "CS001"))
	require.NoError(t, err)
	b, _, err := svc.Reconcile(ctx, newStudent("Priya", "Patel", "priya@school.edu", "CS002"))
	require.NoError(t, err)

	// one stored student matched by email, a different one by roll number
	in := newStudent("Amit", "Sharma", "amit@school.edu", "CS002")
	_, _, err = svc.Reconcile(ctx, in)
	require.Error(t, err)
	var ambErr *student.AmbiguousMatchError
	require.ErrorAs(t, err, &ambErr)
	assert.Equal(t, a.ID, ambErr.EmailMatchID)
	assert.Equal(t, b.ID, ambErr.RollNumberMatchID)
}
