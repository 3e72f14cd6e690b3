// Command movepatch rewrites compiled Move modules from a transform config.
//
//	movepatch transform --config transform.json [--build-dir ./pkg]
//	movepatch inspect build/pkg/bytecode_modules/template.mv [-i]
package main

func main() {
	Execute()
}
