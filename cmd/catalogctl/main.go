// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command catalogctl runs Listify maintenance tasks outside the API server:
// on-demand orphan sweeps and schema migrations.
package main

func main() {
	Execute()
}
