package constants

// MaxPhotoSize caps a single photo upload before re-encoding.
const MaxPhotoSize = 10 * 1024 * 1024

// MaxRequestBody leaves room for multipart framing around a full size photo.
const MaxRequestBody = MaxPhotoSize + 1024*1024
