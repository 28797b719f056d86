package deduplicator

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/eteb/Smart-File-Tool/internal"
	"github.com/eteb/Smart-File-Tool/pkg/scanner"
)

func collectEntries(t *testing.T, fs afero.Fs, root string) []scanner.FileEntry {
	t.Helper()
	entries, err := scanner.NewFileWalker(fs, false).Collect(root)
	if err != nil {
		t.Fatalf("收集文件失败: %v", err)
	}
	return entries
}

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			t.Fatalf("创建测试文件失败: %v", err)
		}
	}
}

func TestFindDuplicates_Checksum(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"root/a.txt": "hello",
		"root/b.txt": "hello",
		"root/c.txt": "world",
	})

	d := New(fs, 2, 0, false)
	entries := collectEntries(t, fs, "root")

	groups, skipped, err := d.FindDuplicates(entries, internal.MethodChecksum)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}
	if skipped != 0 {
		t.Errorf("Expected 0 skipped, got %d", skipped)
	}
	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}

	g := groups[0]
	if len(g.Files) != 2 {
		t.Fatalf("Expected group of 2, got %d", len(g.Files))
	}
	// 保留者是枚举顺序中的第一个
	if g.Survivor().Path != "root/a.txt" {
		t.Errorf("Expected survivor root/a.txt, got %s", g.Survivor().Path)
	}
	if g.Duplicates()[0].Path != "root/b.txt" {
		t.Errorf("Expected duplicate root/b.txt, got %s", g.Duplicates()[0].Path)
	}
}

func TestFindDuplicates_Checksum_SameSizeDifferentContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	// 大小相同但内容不同的文件不能进同一组
	writeFiles(t, fs, map[string]string{
		"root/x.bin": "aaaaa",
		"root/y.bin": "bbbbb",
	})

	d := New(fs, 2, 0, false)
	groups, _, err := d.FindDuplicates(collectEntries(t, fs, "root"), internal.MethodChecksum)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("Expected no groups, got %d", len(groups))
	}
}

func TestFindDuplicates_NameSize(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"root/one/data.bin": "AAAA",
		"root/two/data.bin": "BBBB", // 同名同大小，内容不同
		"root/one/misc.bin": "AAAA", // 同内容，名字不同
	})

	d := New(fs, 2, 0, false)
	groups, _, err := d.FindDuplicates(collectEntries(t, fs, "root"), internal.MethodNameSize)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}

	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Files) != 2 {
		t.Fatalf("Expected group of 2, got %d", len(groups[0].Files))
	}
	for _, f := range groups[0].Files {
		if f.Info.Name() != "data.bin" {
			t.Errorf("Unexpected group member: %s", f.Path)
		}
	}
}

func TestFindDuplicates_InvalidMethod(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := New(fs, 2, 0, false)

	_, _, err := d.FindDuplicates(nil, internal.Method("bogus"))
	if !errors.Is(err, internal.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestFindDuplicates_UnreadableFileSkipped(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"root/a.txt": "hello",
		"root/b.txt": "howdy", // 与 a 大小相同，必须走哈希级联
	})

	entries := collectEntries(t, fs, "root")

	// 收集后文件消失，模拟扫描中途不可读
	if err := fs.Remove("root/b.txt"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	d := New(fs, 2, 0, false)
	groups, skipped, err := d.FindDuplicates(entries, internal.MethodChecksum)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}

	if skipped != 1 {
		t.Errorf("Expected 1 skipped file, got %d", skipped)
	}
	if len(groups) != 0 {
		t.Errorf("Skipped file must not appear in any group, got %d groups", len(groups))
	}
}

func TestFindDuplicates_GroupInvariants(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"root/a1.txt": "alpha",
		"root/a2.txt": "alpha",
		"root/a3.txt": "alpha",
		"root/b1.txt": "beta1",
		"root/b2.txt": "beta1",
		"root/solo":   "unique content",
	})

	entries := collectEntries(t, fs, "root")
	known := make(map[string]bool)
	for _, e := range entries {
		known[e.Path] = true
	}

	d := New(fs, 2, 0, false)
	groups, _, err := d.FindDuplicates(entries, internal.MethodChecksum)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	for _, g := range groups {
		if len(g.Files) < 2 {
			t.Errorf("Group %s smaller than 2", g.Key)
		}
		for _, f := range g.Files {
			if !known[f.Path] {
				t.Errorf("Group member %s not in original enumeration", f.Path)
			}
		}
	}

	// 键序按首次出现: a1 在 b1 之前
	if groups[0].Survivor().Path != "root/a1.txt" {
		t.Errorf("Expected first group survivor root/a1.txt, got %s", groups[0].Survivor().Path)
	}
	if groups[1].Survivor().Path != "root/b1.txt" {
		t.Errorf("Expected second group survivor root/b1.txt, got %s", groups[1].Survivor().Path)
	}
}

func TestHandleDuplicates_DeleteDryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"root/a.txt": "hello",
		"root/b.txt": "hello",
		"root/c.txt": "world",
	})

	d := New(fs, 2, 0, false)
	groups, _, err := d.FindDuplicates(collectEntries(t, fs, "root"), internal.MethodChecksum)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}

	stats := &internal.ProcessStats{}
	if err := d.HandleDuplicates(groups, internal.ActionDelete, true, stats); err != nil {
		t.Fatalf("HandleDuplicates() error = %v", err)
	}

	// 预览报告的动作与真实执行一致，但文件系统不被触碰
	if stats.Deleted != 1 {
		t.Errorf("Expected 1 reported delete, got %d", stats.Deleted)
	}
	for _, path := range []string{"root/a.txt", "root/b.txt", "root/c.txt"} {
		if exists, _ := afero.Exists(fs, path); !exists {
			t.Errorf("Dry-run must not remove %s", path)
		}
	}
}

func TestHandleDuplicates_Delete(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"root/a.txt": "hello",
		"root/b.txt": "hello",
		"root/c.txt": "world",
	})

	d := New(fs, 2, 0, false)
	groups, _, err := d.FindDuplicates(collectEntries(t, fs, "root"), internal.MethodChecksum)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}

	stats := &internal.ProcessStats{}
	if err := d.HandleDuplicates(groups, internal.ActionDelete, false, stats); err != nil {
		t.Fatalf("HandleDuplicates() error = %v", err)
	}

	if stats.Deleted != 1 {
		t.Errorf("Expected 1 delete, got %d", stats.Deleted)
	}
	if stats.FreedSpace != int64(len("hello")) {
		t.Errorf("Expected freed space %d, got %d", len("hello"), stats.FreedSpace)
	}

	if exists, _ := afero.Exists(fs, "root/a.txt"); !exists {
		t.Error("Survivor a.txt must remain")
	}
	if exists, _ := afero.Exists(fs, "root/b.txt"); exists {
		t.Error("Duplicate b.txt should be deleted")
	}
	if exists, _ := afero.Exists(fs, "root/c.txt"); !exists {
		t.Error("Unrelated c.txt must remain")
	}
}

func TestHandleDuplicates_MoveIndexedTargets(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"root/x1.dat": "same content",
		"root/x2.dat": "same content",
		"root/x3.dat": "same content",
	})

	d := New(fs, 2, 0, false)
	groups, _, err := d.FindDuplicates(collectEntries(t, fs, "root"), internal.MethodChecksum)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}

	stats := &internal.ProcessStats{}
	if err := d.HandleDuplicates(groups, internal.ActionMove, false, stats); err != nil {
		t.Fatalf("HandleDuplicates() error = %v", err)
	}

	if stats.Moved != 2 {
		t.Errorf("Expected 2 moves, got %d", stats.Moved)
	}

	// 第二个重复不会覆盖第一个的目标名
	for _, path := range []string{"root/x1.dat", "root/x1.dat.DUPLICATE", "root/x1.dat.DUPLICATE.1"} {
		if exists, _ := afero.Exists(fs, path); !exists {
			t.Errorf("Expected %s to exist", path)
		}
	}
	for _, path := range []string{"root/x2.dat", "root/x3.dat"} {
		if exists, _ := afero.Exists(fs, path); exists {
			t.Errorf("Expected %s to be moved away", path)
		}
	}
}

func TestHandleDuplicates_Copy(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"root/a.txt": "hello",
		"root/b.txt": "hello",
	})

	d := New(fs, 2, 0, false)
	groups, _, err := d.FindDuplicates(collectEntries(t, fs, "root"), internal.MethodChecksum)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}

	stats := &internal.ProcessStats{}
	if err := d.HandleDuplicates(groups, internal.ActionCopy, false, stats); err != nil {
		t.Fatalf("HandleDuplicates() error = %v", err)
	}

	if stats.Copied != 1 {
		t.Errorf("Expected 1 copy, got %d", stats.Copied)
	}
	// copy 动作下原重复文件留在原地
	if exists, _ := afero.Exists(fs, "root/b.txt"); !exists {
		t.Error("Original duplicate must remain in place for copy action")
	}
	got, err := afero.ReadFile(fs, "root/a.txt.DUPLICATE")
	if err != nil {
		t.Fatalf("读取副本失败: %v", err)
	}
	if string(got) != "hello" {
		t.Error("Copy content mismatch")
	}
}

func TestHandleDuplicates_InvalidAction(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"root/a.txt": "hello",
		"root/b.txt": "hello",
	})

	d := New(fs, 2, 0, false)
	groups, _, err := d.FindDuplicates(collectEntries(t, fs, "root"), internal.MethodChecksum)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}

	stats := &internal.ProcessStats{}
	err = d.HandleDuplicates(groups, internal.Action("bogus"), false, stats)
	if !errors.Is(err, internal.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}

	// 校验失败时不能有任何文件被动过
	for _, path := range []string{"root/a.txt", "root/b.txt"} {
		if exists, _ := afero.Exists(fs, path); !exists {
			t.Errorf("File %s must be untouched after invalid action", path)
		}
	}
}

func TestHandleDuplicates_FailuresSkipAndContinue(t *testing.T) {
	base := afero.NewMemMapFs()
	writeFiles(t, base, map[string]string{
		"root/a1.txt": "alpha",
		"root/a2.txt": "alpha",
		"root/b1.txt": "beta1",
		"root/b2.txt": "beta1",
	})

	groups, _, err := New(base, 2, 0, false).FindDuplicates(collectEntries(t, base, "root"), internal.MethodChecksum)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}

	// 只读文件系统上每个删除都会失败，但批处理必须跑完全部分组
	ro := New(afero.NewReadOnlyFs(base), 2, 0, false)
	stats := &internal.ProcessStats{}
	if err := ro.HandleDuplicates(groups, internal.ActionDelete, false, stats); err != nil {
		t.Fatalf("HandleDuplicates() error = %v", err)
	}

	if stats.Errors != 2 {
		t.Errorf("Expected 2 recorded failures, got %d", stats.Errors)
	}
	if stats.Deleted != 0 {
		t.Errorf("Expected 0 deletes on read-only fs, got %d", stats.Deleted)
	}
	for _, path := range []string{"root/a1.txt", "root/a2.txt", "root/b1.txt", "root/b2.txt"} {
		if exists, _ := afero.Exists(base, path); !exists {
			t.Errorf("File %s must survive failed actions", path)
		}
	}
}

func TestFindDuplicates_EmptyInput(t *testing.T) {
	d := New(afero.NewMemMapFs(), 2, 0, false)

	groups, skipped, err := d.FindDuplicates(nil, internal.MethodChecksum)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}
	if len(groups) != 0 || skipped != 0 {
		t.Errorf("Expected no groups and no skips, got %d/%d", len(groups), skipped)
	}
}
