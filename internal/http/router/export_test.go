package router

var RequestLogger = requestLogger
