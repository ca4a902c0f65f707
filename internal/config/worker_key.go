package config

type WorkerKeyStruct struct {
	MediaCleanupQueue string
}

var WorkerKey = &WorkerKeyStruct{
	MediaCleanupQueue: "queue:media_cleanup",
}
