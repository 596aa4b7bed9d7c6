package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

type userFixture struct {
	svc      *UserService
	users    *stubUserRepo
	projects *stubProjectRepo
	tasks    *stubTaskRepo
	notifier *stubNotifier
}

func newUserFixture() userFixture {
	users := newStubUserRepo()
	seedPeople(users)
	projects := newStubProjectRepo()
	projects.seed("p1", "creator", "member")
	tasks := newStubTaskRepo()
	notifier := &stubNotifier{}
	return userFixture{
		svc:      NewUserService(users, projects, tasks, notifier, zerolog.Nop()),
		users:    users,
		projects: projects,
		tasks:    tasks,
		notifier: notifier,
	}
}

func TestUserService_CreateUser_GeneratedPasswordAndProject(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	res, err := f.svc.CreateUser(ctx, adminUser, ports.CreateUserInput{
		Name:      "Nora",
		Email:     "nora@example.com",
		ProjectID: "p1",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if res.GeneratedPassword == "" || !domain.StrongPassword(res.GeneratedPassword) {
		t.Fatalf("expected a strong generated password, got %q", res.GeneratedPassword)
	}
	if res.User.Role != domain.RoleMember {
		t.Fatalf("expected default member role, got %s", res.User.Role)
	}
	if res.Project == nil || res.Project.ID != "p1" {
		t.Fatalf("expected project ref, got %+v", res.Project)
	}
	if !f.projects.projects["p1"].HasMember(res.User.ID) {
		t.Fatalf("user should be a member of p1")
	}
	if !passwordMatches(f.users.users[res.User.ID].PasswordHash, res.GeneratedPassword) {
		t.Fatalf("stored hash does not match the generated password")
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].Kind != domain.NotifyCredentials || f.notifier.sent[0].Password != res.GeneratedPassword {
		t.Fatalf("expected credentials email, got %+v", f.notifier.sent)
	}
}

func TestUserService_CreateUser_Rules(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	if _, err := f.svc.CreateUser(ctx, memberUser, ports.CreateUserInput{Name: "X", Email: "x@example.com"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
	if _, err := f.svc.CreateUser(ctx, adminUser, ports.CreateUserInput{Name: "X", Email: memberUser.Email}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if _, err := f.svc.CreateUser(ctx, adminUser, ports.CreateUserInput{Name: "X", Email: "x@example.com", Password: "weak"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.svc.CreateUser(ctx, adminUser, ports.CreateUserInput{Name: "X", Email: "x@example.com", Role: "owner"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for role, got %v", err)
	}

	res, err := f.svc.CreateUser(ctx, adminUser, ports.CreateUserInput{Name: "X", Email: "x@example.com", Password: "Chosen1x", ProjectID: "missing"})
	if err != nil {
		t.Fatalf("missing project should be ignored: %v", err)
	}
	if res.GeneratedPassword != "" || res.Project != nil {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	if err := f.svc.DeleteUser(ctx, adminUser, adminUser.ID); !errors.Is(err, domain.ErrCannotDeleteSelf) {
		t.Fatalf("expected ErrCannotDeleteSelf, got %v", err)
	}
	if err := f.svc.DeleteUser(ctx, adminUser, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := f.svc.DeleteUser(ctx, adminUser, outsider.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := f.users.users[outsider.ID]; ok {
		t.Fatalf("user should be gone")
	}
}

func TestUserService_UpdateRole(t *testing.T) {
	f := newUserFixture()

	user, err := f.svc.UpdateRole(context.Background(), adminUser, memberUser.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if user.Role != domain.RoleAdmin || f.users.users[memberUser.ID].Role != domain.RoleAdmin {
		t.Fatalf("role not updated")
	}
	if _, err := f.svc.UpdateRole(context.Background(), adminUser, memberUser.ID, "root"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserService_AddUserToProject(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	view, err := f.svc.AddUserToProject(ctx, adminUser, outsider.ID, "p1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(view.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(view.Members))
	}
	if kinds := f.notifier.kinds(); len(kinds) != 1 || kinds[0] != domain.NotifyProjectAdded {
		t.Fatalf("expected project_added email, got %v", kinds)
	}
	if _, err := f.svc.AddUserToProject(ctx, adminUser, outsider.ID, "p1"); !errors.Is(err, domain.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
	if _, err := f.svc.AddUserToProject(ctx, adminUser, outsider.ID, "missing"); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestUserService_Dashboard(t *testing.T) {
	f := newUserFixture()
	archived := f.projects.seed("p2", "creator")
	f.projects.projects[archived.ID].Status = domain.ProjectArchived
	f.tasks.seed("t1", "p1", "creator", "")

	stats, err := f.svc.Dashboard(context.Background(), adminUser)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalUsers != 4 || stats.TotalProjects != 2 || stats.ActiveProjects != 1 || stats.TotalTasks != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if len(stats.RecentUsers) != 4 || len(stats.RecentProjects) != 2 {
		t.Fatalf("unexpected recents: %d users, %d projects", len(stats.RecentUsers), len(stats.RecentProjects))
	}

	if _, err := f.svc.Dashboard(context.Background(), memberUser); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_EnsureAdmin(t *testing.T) {
	users := newStubUserRepo()
	svc := NewUserService(users, newStubProjectRepo(), newStubTaskRepo(), nil, zerolog.Nop())

	created, err := svc.EnsureAdmin(context.Background(), "", "Root@Example.com", "Adm1nPass")
	if err != nil || !created {
		t.Fatalf("expected admin to be created, got %v %v", created, err)
	}
	admin, err := users.FindByEmail(context.Background(), "root@example.com")
	if err != nil || admin.Role != domain.RoleAdmin {
		t.Fatalf("admin not stored: %+v %v", admin, err)
	}

	created, err = svc.EnsureAdmin(context.Background(), "", "other@example.com", "Adm1nPass")
	if err != nil || created {
		t.Fatalf("second call must be a no-op, got %v %v", created, err)
	}
}
