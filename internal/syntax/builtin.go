package syntax

import "github.com/kobzarvs/qmacs/internal/config"

// Builtin is the keyword table used when languages.toml does not override
// an entry.
func Builtin() config.Languages {
	return config.Languages{Languages: []config.Language{
		{
			Name:      "c",
			FileTypes: []string{"c", "h"},
			Keywords: []string{
				"auto", "break", "case", "const", "continue", "default", "do",
				"else", "enum", "extern", "for", "goto", "if", "inline", "register",
				"return", "sizeof", "static", "struct", "switch", "typedef",
				"union", "volatile", "while", "#include", "#define", "#ifdef",
				"#ifndef", "#endif", "#if", "#else", "#pragma",
			},
			Types: []string{
				"char", "double", "float", "int", "long", "short", "signed",
				"unsigned", "void", "size_t", "ssize_t", "bool", "uint8_t",
				"uint16_t", "uint32_t", "uint64_t", "int8_t", "int16_t",
				"int32_t", "int64_t",
			},
			Constants:    []string{"NULL", "true", "false"},
			LineComment:  "//",
			BlockComment: []string{"/*", "*/"},
			Quotes:       `"'`,
		},
		{
			Name:      "rust",
			FileTypes: []string{"rs"},
			Keywords: []string{
				"as", "async", "await", "break", "const", "continue", "crate",
				"dyn", "else", "enum", "extern", "fn", "for", "if", "impl", "in",
				"let", "loop", "match", "mod", "move", "mut", "pub", "ref",
				"return", "self", "Self", "static", "struct", "super", "trait",
				"type", "unsafe", "use", "where", "while",
			},
			Types: []string{
				"i8", "i16", "i32", "i64", "i128", "isize", "u8", "u16", "u32",
				"u64", "u128", "usize", "f32", "f64", "bool", "char", "str",
				"String", "Vec", "Option", "Result", "Box",
			},
			Constants:    []string{"true", "false", "None", "Some", "Ok", "Err"},
			LineComment:  "//",
			BlockComment: []string{"/*", "*/"},
			Quotes:       `"`,
		},
		{
			Name:      "go",
			FileTypes: []string{"go"},
			Keywords: []string{
				"break", "case", "chan", "const", "continue", "default", "defer",
				"else", "fallthrough", "for", "func", "go", "goto", "if",
				"import", "interface", "map", "package", "range", "return",
				"select", "struct", "switch", "type", "var",
			},
			Types: []string{
				"bool", "byte", "rune", "string", "int", "int8", "int16", "int32",
				"int64", "uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
				"float32", "float64", "complex64", "complex128", "error", "any",
			},
			Constants:    []string{"nil", "true", "false", "iota"},
			LineComment:  "//",
			BlockComment: []string{"/*", "*/"},
			Quotes:       "\"'`",
		},
		{
			Name:        "bash",
			FileTypes:   []string{"sh", "bash", ".bashrc", ".profile"},
			Keywords:    []string{"if", "then", "else", "elif", "fi", "case", "esac", "for", "while", "until", "do", "done", "in", "function", "return", "local", "export"},
			LineComment: "#",
			Quotes:      `"'`,
		},
		{
			Name:        "yaml",
			FileTypes:   []string{"yaml", "yml"},
			Constants:   []string{"true", "false", "null", "yes", "no"},
			LineComment: "#",
			Quotes:      `"'`,
		},
		{
			Name:        "toml",
			FileTypes:   []string{"toml"},
			Constants:   []string{"true", "false"},
			LineComment: "#",
			Quotes:      `"'`,
		},
		{
			Name:      "markdown",
			FileTypes: []string{"md", "markdown"},
			Quotes:    "`",
		},
		{
			Name:        "config",
			FileTypes:   []string{"ini", "conf", "cfg", "properties"},
			Constants:   []string{"true", "false", "on", "off", "yes", "no"},
			LineComment: "#",
			Quotes:      `"'`,
		},
	}}
}
