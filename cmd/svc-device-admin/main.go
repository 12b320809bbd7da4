package main

import "github.com/architeacher/device-admin/internal/runtime"

func main() {
	runtime.New().Run()
}
