// Package legalpdf renders legal document text into paginated PDFs with
// signature, initials, and notary blocks that never split across pages.
//
// # Quick Start
//
// Create an exporter and export a document:
//
//	exp := legalpdf.NewExporter()
//	result, err := exp.Export(ctx, legalpdf.Request{
//	    Text:         content,
//	    DocumentType: "Lease Agreement",
//	    OutputPath:   "lease.pdf",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.PageCount, "pages")
//
// Leaving OutputPath empty returns the PDF in Result.Buffer instead.
//
// # Signature Markers
//
// Document text carries inline marker tokens naming where signature blocks
// belong:
//
//	[SIGNATURE_BLOCK:landlord-tenant]
//	LANDLORD:                       TENANT:
//	Name: Jane Doe                  Name: John Roe
//
//	[INITIALS_BLOCK:page-initials]
//	[NOTARY_BLOCK:acknowledgment]
//
// Marker IDs are lowercase alphanumeric with single hyphens. The lines
// following a marker describe the signing parties; two labels on one line
// separated by two or more spaces render the parties side by side. Notary
// blocks append a state/county acknowledgment section. Malformed markers are
// skipped, never fatal.
//
// # Pipeline
//
// An export runs these stages, reported through Request.OnProgress:
//
//  1. initializing (option validation)
//  2. formatting (line normalization)
//  3. parsing signatures (marker extraction)
//  4. layout (Markdown to draw operations, page prediction)
//  5. rendering (pagination with block atomicity)
//  6. finalizing (flush and commit)
//
// Body text is treated as Markdown: headings, emphasis, lists, and
// horizontal rules render with matching typography.
//
// # Configuration
//
// Use Request.Options for page setup and functional options on the
// exporter for cross-export behavior:
//
//	exp := legalpdf.NewExporter(legalpdf.WithLogger(logger))
//	result, err := exp.Export(ctx, legalpdf.Request{
//	    Text: content,
//	    Options: &legalpdf.Options{
//	        PageSize:    "legal",
//	        FontSize:    11,
//	        LineSpacing: "double",
//	        PageNumbers: &legalpdf.PageNumbers{
//	            Enabled:  true,
//	            Position: "bottom-right",
//	            Format:   "roman",
//	            Prefix:   "Page ",
//	        },
//	    },
//	})
package legalpdf
