package models

import (
	"reflect"
	"testing"
)

func TestCourseAssetLists(t *testing.T) {
	var c Course

	if got := c.SyllabusList(); got != nil {
		t.Fatalf("empty course should have no assets, got %v", got)
	}

	c.AppendSyllabusAssets([]string{"outline.pdf"})
	c.AppendSyllabusAssets(nil)
	c.AppendSyllabusAssets([]string{"week1.pdf", "week2.pdf"})

	want := []string{"outline.pdf", "week1.pdf", "week2.pdf"}
	if got := c.SyllabusList(); !reflect.DeepEqual(got, want) {
		t.Fatalf("syllabus list = %v, want %v (append order must be preserved)", got, want)
	}

	// Video and syllabus lists are independent.
	c.AppendVideoAssets([]string{"intro.mp4"})
	if got := c.VideoList(); !reflect.DeepEqual(got, []string{"intro.mp4"}) {
		t.Fatalf("video list = %v", got)
	}
	if got := c.SyllabusList(); !reflect.DeepEqual(got, want) {
		t.Fatalf("video append must not touch syllabus list: %v", got)
	}
}

func TestUserRoleIsValid(t *testing.T) {
	for _, role := range []UserRole{RoleStudent, RoleTeacher} {
		if !role.IsValid() {
			t.Fatalf("%s should be valid", role)
		}
	}
	for _, role := range []UserRole{"admin", "", "Teacher"} {
		if role.IsValid() {
			t.Fatalf("%q should be invalid", role)
		}
	}
}
