package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/slam/stegocrypt/internal/imageio"
	"github.com/slam/stegocrypt/internal/stego"
)

const passwordEnvVar = "STEGOCRYPT_PASSWORD"

func main() {
	var verbose bool
	var encode bool
	var decode bool
	var capacity bool
	var imagePath string
	var secret string
	var secretPath string
	var password string
	var outPath string

	flag.BoolVar(&verbose, "verbose", false, "verbose logging")
	flag.BoolVar(&encode, "encode", false, "hide a message in the image")
	flag.BoolVar(&decode, "decode", false, "reveal the message hidden in an image")
	flag.BoolVar(&capacity, "capacity", false, "print how many bytes the image can hide")
	flag.StringVar(&imagePath, "image-path", "", "path to image")
	flag.StringVar(&secret, "secret", "", "secret message")
	flag.StringVar(&secretPath, "secret-path", "", "path to secret file")
	flag.StringVar(&password, "password", "", "encryption password (or set "+passwordEnvVar+", or enter at the prompt)")
	flag.StringVar(&outPath, "out", "encoded_image.png", "output path for the stego image (png or bmp)")

	flag.Parse()

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	modes := 0
	for _, m := range []bool{encode, decode, capacity} {
		if m {
			modes++
		}
	}
	if modes != 1 {
		logrus.Warnf("must pass exactly one of -encode, -decode, -capacity")
		logrus.Infof("exiting")
		return
	}

	if imagePath == "" {
		logrus.Warnf("must pass -image-path")
		logrus.Infof("exiting")
		return
	}

	pixels, err := imageio.Load(imagePath)
	if err != nil {
		logrus.WithError(err).Errorf("failed to decode image")
		logrus.Infof("exiting")
		return
	}
	logrus.Debugf("loaded %dx%d image, capacity %d bytes", pixels.Width, pixels.Height, pixels.Capacity())

	if capacity {
		logrus.Infof("%s can hide up to %d bytes", imagePath, pixels.Capacity())
		return
	}

	pass, err := getPassword(password)
	if err != nil {
		logrus.WithError(err).Errorf("could not read password")
		logrus.Infof("exiting")
		return
	}

	if decode {
		message, err := stego.Reveal(pixels, pass)
		if err != nil {
			logrus.WithError(err).Errorf("failed to reveal message (wrong password or not a stego image?)")
			logrus.Infof("exiting")
			return
		}
		logrus.Infof("Steganography completed successfully!")
		logrus.Infof("Hidden message: %s", message)
		return
	}

	// encode
	if secret == "" && secretPath == "" || secret != "" && secretPath != "" {
		logrus.Warnf("must pass -secret or -secret-path")
		logrus.Infof("exiting")
		return
	}

	message := []byte(secret)
	if secretPath != "" {
		logrus.Debugf("reading secret from %s", secretPath)
		message, err = os.ReadFile(secretPath)
		if err != nil {
			logrus.WithError(err).Errorf("could not read secret (%s)", secretPath)
			logrus.Infof("exiting")
			return
		}
	}

	stegoPixels, err := stego.Hide(pixels, message, pass)
	if err != nil {
		logrus.WithError(err).Errorf("failed to hide message")
		logrus.Infof("exiting")
		return
	}

	if err := imageio.Save(outPath, stegoPixels); err != nil {
		logrus.WithError(err).Errorf("failed to save stego image")
		logrus.Infof("exiting")
		return
	}

	logrus.Infof("Steganography completed successfully!")
	logrus.Infof("file can be found at %s", outPath)
}

// getPassword resolves the password from the flag, the environment, or an
// interactive no-echo prompt, in that order.
func getPassword(flagValue string) ([]byte, error) {
	if flagValue != "" {
		return []byte(flagValue), nil
	}
	if env := os.Getenv(passwordEnvVar); env != "" {
		return []byte(env), nil
	}

	fmt.Fprint(os.Stderr, "password: ")
	pass, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("%w (pass -password or set %s when stdin is not a terminal)", err, passwordEnvVar)
	}
	return pass, nil
}
