// Package config loads transform configuration documents.
//
// A document is JSON, or YAML when the file name ends in .yaml or .yml:
//
//	{
//	  "outputDir": "build/out",
//	  "identifiers": {"template": "my_coin", "TEMPLATE": "MY_COIN"},
//	  "files": [
//	    {
//	      "bytecodeInputFile": "build/template/bytecode_modules/template.mv",
//	      "constants": [
//	        {"moveType": "U8", "oldVal": 6, "newVal": 9},
//	        {"moveType": "Vector(U8)", "oldVal": "TMPL", "newVal": "MYC"}
//	      ]
//	    }
//	  ]
//	}
//
// Validation is structural: required fields must be present with the right
// shape, unknown fields are ignored, and constant values are not checked
// against their moveType here. The first failing field is reported by path,
// in document order: outputDir, identifiers, files, then for each file
// bytecodeInputFile and constants, then for each constant moveType, oldVal
// and newVal.
//
// JSON numbers are kept as json.Number so large integer constants do not
// lose precision.
package config
