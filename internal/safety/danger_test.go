package safety

import "testing"

func TestIsDangerous(t *testing.T) {
	checker := NewChecker()

	dangerous := []string{
		"rm -rf /tmp/build",
		"sudo rm old.log",
		"dd if=/dev/zero of=/dev/sda",
		"mkfs.ext4 /dev/sdb1",
		"chmod 777 /etc",
		"echo pwned > /etc/passwd",
		"shutdown -h now",
		":(){ :|:& };:",
	}
	for _, cmd := range dangerous {
		if !checker.IsDangerous(cmd) {
			t.Errorf("Expected %q flagged as dangerous", cmd)
		}
	}

	safe := []string{
		"ls -la",
		"git status",
		"du -sh *",
		"grep -r TODO .",
		"echo rmdir is a word", // only the first token is command-checked
		"",
	}
	for _, cmd := range safe {
		if checker.IsDangerous(cmd) {
			t.Errorf("Did not expect %q flagged as dangerous", cmd)
		}
	}
}
