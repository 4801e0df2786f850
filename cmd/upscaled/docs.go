package main

// General API documentation for swaggo. Run `swag init -g cmd/upscaled/docs.go` to regenerate docs/.
//
// @title           upscaled API
// @version         1.0
// @description     HTTP API that upscales uploaded images with a configurable backend.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
