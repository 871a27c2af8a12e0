package migration

// classify turns a finished tool invocation into a Result. Pure: separating
// it from the process spawn keeps the success/failure policy unit-testable
// without executing anything.
//
// Exit status zero is success, anything else is failure. The combined
// output is carried through untouched either way, and the applied count is
// the number of migration directories discovered for the version (see
// Result.AppliedMigrationCount for why that is a reporting approximation).
func classify(exitCode int, output []byte, discovered int) *Result {
	return &Result{
		Success:               exitCode == 0,
		Output:                string(output),
		AppliedMigrationCount: discovered,
		ExitCode:              exitCode,
	}
}
