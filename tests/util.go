package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/user"
)

// NewConfig returns a TEST config whose data and reports dirs live in a temp dir.
func NewConfig(t *testing.T) *core.Config {
	t.Helper()
	dir := t.TempDir()
	return &core.Config{
		Env:                    "TEST",
		TestMode:               true,
		LogMode:                "dev",
		DataDir:                filepath.Join(dir, "data"),
		ReportsDir:             filepath.Join(dir, "reports"),
		Storage:                core.StorageConfig{Driver: "csv"},
		DefaultTeacherUsername: "teacher",
		DefaultTeacherPassword: "teacher",
	}
}

// WriteDataFile writes a CSV file into the config's data dir.
func WriteDataFile(t *testing.T, conf *core.Config, name, content string) {
	t.Helper()
	if err := os.MkdirAll(conf.DataDir, 0o755); err != nil {
		t.Fatalf("WriteDataFile() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(conf.DataDir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteDataFile() failed: %v", err)
	}
}

// SeedClass writes two students (s1 Ada Obi, s2 Bayo Eze), two assignments (A: max 100 weight
// 0.4, B: max 50 weight 0.6) and a score of 80 for s1 on A.
func SeedClass(t *testing.T, conf *core.Config) {
	t.Helper()
	WriteDataFile(t, conf, "students.csv", "student_id,first_name,last_name,email\ns1,Ada,Obi,ada@test.cd\ns2,Bayo,Eze,\n")
	WriteDataFile(t, conf, "assignments.csv", "assignment_id,name,max_points,weight,type\nA,Quiz 1,100,0.4,quiz\nB,Final,50,0.6,exam\n")
	WriteDataFile(t, conf, "grades.csv", "student_id,assignment_id,score\ns1,A,80\n")
}

// CreateAccount stores an account with the given password.
func CreateAccount(t *testing.T, repo user.Repository, role user.Role, username, pwd string) user.Account {
	t.Helper()
	acc := user.Account{Role: role, Username: username}
	if err := acc.SetPassword(pwd); err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	if err := repo.SaveAccount(acc); err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	return acc
}

// AddStudents adds students with the given ids to gb, failing the test on error.
func AddStudents(t *testing.T, gb *gradebook.Gradebook, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := gb.AddStudent(gradebook.Student{ID: id, FirstName: id}); err != nil {
			t.Fatalf("AddStudents() failed: %v", err)
		}
	}
}
