// Package export turns templates into downloadable artifacts and stores them.
//
// Filename derives the download name of a template: the name is lower-cased
// and every run of whitespace becomes a single hyphen, so "Spring Sale" is
// exported as "spring-sale.html" and "spring-sale.json".
//
// An Exporter compiles a template with the compiler package, marshals it as
// indented JSON and writes the results to a Storage backend. Two backends are
// provided: LocalStorage confines every path to a base directory, S3Storage
// writes to Amazon S3 or any S3-compatible service.
//
//	storage, err := export.NewLocalStorage("./exports", "/exports/")
//	if err != nil {
//		return err
//	}
//	files, err := export.New(storage).Export(ctx, tpl)
package export
