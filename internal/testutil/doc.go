// Package testutil provides shared test utilities for openspec-loop.
//
// # Fixtures
//
// The fixtures.go file provides sample backend data and loop state:
//
//   - SampleEpic(), SampleTasks() - one open epic and its ready tasks
//   - SampleLoopState() - an active loop with a budget and a verify command
//
// # Environment Helpers
//
// The env.go file provides test environment setup:
//
//   - SetupTestDir(t) - creates a temp project with .opencode/ and a hook config
//   - FindProjectRoot(t) - finds the module root (directory containing go.mod)
//   - MustMarshalJSON(t, v), MustUnmarshalJSON(t, data, v)
//   - WriteTestFile(t, base, path, content) - writes a file in the test dir
//
// # Fake Backend
//
// The fakebd.go file provides FakeBD, an executable stand-in for the bd CLI
// that answers queries from JSON fixtures and records every invocation.
// Use it wherever the real gateway and exec runner should be exercised.
//
// # Assertions
//
// The assertions.go file provides loop state assertions:
//
//   - AssertLoopActive(t, store), AssertLoopStopped(t, store)
//   - AssertIteration(t, store, n), AssertStuck(t, store, reason)
//
// # Usage
//
//	func TestSomething(t *testing.T) {
//	    dir, store := testutil.SetupTestDir(t)
//	    bd := testutil.NewFakeBD(t)
//	    bd.SetEpics(testutil.SampleEpic())
//	    bd.SetReady(testutil.SampleTasks()...)
//	    // ... run against bd.Binary() ...
//	    testutil.AssertIteration(t, store, 1)
//	}
package testutil
