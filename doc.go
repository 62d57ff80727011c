package confschema

// Package confschema provides:
//
// - Schema inference from sample configuration documents (Infer/Generate)
// - Validation of documents against a schema tree, natively or through a JSON Schema engine
// - A stable diagnostic model via Issues (report path, code, message)
// - Batch validation of files with optional quarantine of failures
//
// Design policy:
// - Keep only public APIs in the root package; put format adapters under format/,
//   named-format predicates under formats/ and JSON plumbing under internal/.
// - Path flattening and inflation live in pathcodec/, the data model in value/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	doc, err := confschema.Load("schema.yaml", format.Options{Path: pathcodec.DefaultConfig()})
//	ok, err := doc.ValidateSource("config.toml")
//
//	iss, err := doc.Check(data, confschema.ValidateOpt{PathSeparator: "."})
//
//	gen := confschema.Generate(sample, false)
//	err = gen.WriteFile("sample.schema.json")
