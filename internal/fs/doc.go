// Package fs abstracts the filesystem writes made when indexes are saved, so
// tests can inject failures.
//
// Production code uses fs.Default ([LocalFS]):
//
//	err := fs.WriteAtomic(fs.Default, "fruits.ddb", data, 0o644)
//
// Tests wrap it in a [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailOnSync: true})
//
// Operations take no context.Context; local writes are not interruptible at
// the syscall level. Remote stores go through blobstore.
package fs
