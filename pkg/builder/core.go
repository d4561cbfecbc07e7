package builder

// Publisher rebuilds the publish directory from the source tree. A Publisher
// holds no state between runs; every Publish call starts from an empty
// destination.
type Publisher struct {
	initialized bool

	srcDir  string
	destDir string

	assetsDir     string
	toolDir       string
	markerFile    string
	markerContent string

	minifier Minifier
}

// NewPublisher returns a publisher for srcDir into destDir. A nil minifier
// selects the tdewolff minifier configured from config.Config.
func NewPublisher(srcDir, destDir string, m Minifier) *Publisher {
	return &Publisher{
		srcDir:   srcDir,
		destDir:  destDir,
		minifier: m,
	}
}

func (p *Publisher) SrcDir() string {
	return p.srcDir
}

func (p *Publisher) DestDir() string {
	return p.destDir
}
