// Package sync reconciles the Sublime Text and RStudio snippet libraries.
//
// A run has three steps over the two in-memory trees:
//
//   - Recategorize moves uncategorized snippets into the section the other
//     editor files the same name under.
//   - Merge gives both trees the union of every mapped language pair. When
//     both sides hold a name with different bodies, the RStudio body wins.
//   - Reconcile wraps the two with reading, backups and writing:
//
//	result, err := sync.Reconcile(ctx, sync.Options{
//	    SublimePath: cfg.SublimePath,
//	    RStudioPath: cfg.RStudioPath,
//	    BackupPath:  cfg.BackupPath,
//	    Scopes:      cfg.Scopes,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Summary())
//
// Languages are linked by a model.ScopeMap that ties Sublime Text scopes
// such as "source.r" to RStudio files such as "r.snippets".
package sync
