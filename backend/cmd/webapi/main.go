package main

import "github.com/tidewaterhq/twapp/backend/internal/webapi"

func main() {
	webapi.New().Run()
}
