//go:build opencl

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"blackhole/internal/lensing"
	"blackhole/internal/texture"
)

// openCLLensRenderer runs the lensing kernel with one work item per pixel.
// The background is baked once into a float buffer at construction.
type openCLLensRenderer struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernel     *cl.Kernel
	skyBuf     *cl.MemObject
	pixelBuf   *cl.MemObject
	tallyBuf   *cl.MemObject
	skyWidth   int
	skyHeight  int
	width      int
	height     int
	tallies    []int32
	deviceName string
}

const lensKernelSource = `
#define HASH_SCALE 152754.742f
#define ABSORB_RADIUS 0.1f
#define ESCAPE_RADIUS 1000.0f
#define DISK_BAND 0.002f
#define DISK_NUDGE 0.001f
#define MIN_DIST_SQR 1e-12f
#define MIN_VERTICAL 1e-6f
#define MIN_RAY_VERTICAL 0.01f
#define DISK_NOISE_FREQ 70.0f
#define MAX_ROTATION 8192.0f
#define LENS_STRENGTH 4.0f
#define VIGNETTE_INNER 0.35f
#define VIGNETTE_OUTER 1.15f
#define LIFT 0.85f
#define STAR_FREQ 100.0f
#define STAR_POWER 256.0f
#define STAR_GAIN 100.0f
#define TINT_FREQ 20.0f
#define PI_F 3.14159265358979f

typedef struct {
    float3 pos;
    float width;
    float height;
    float fix_yaw;
    float fix_pitch;
    float pitch;
    float yaw;
} camera_t;

inline float fract1(float x) {
    float f = x - floor(x);
    return f >= 1.0f ? 0.0f : f;
}

inline float hash1(float x) { return fract1(sin(x) * HASH_SCALE); }

inline float hash2(float2 p) { return hash1(p.x + hash1(p.y)); }

inline float value_noise(float2 p, float f) {
    float2 q = p * f;
    float2 c = floor(q);
    float bl = hash2(c);
    float br = hash2(c + (float2)(1.0f, 0.0f));
    float tl = hash2(c + (float2)(0.0f, 1.0f));
    float tr = hash2(c + (float2)(1.0f, 1.0f));
    float fx = q.x - c.x;
    float fy = q.y - c.y;
    fx = (3.0f - 2.0f * fx) * fx * fx;
    fy = (3.0f - 2.0f * fy) * fy * fy;
    return clamp(mix(mix(bl, br, fx), mix(tl, tr, fx), fy), 0.0f, 1.0f);
}

inline float3 rotate_x(float3 v, float a) {
    float s = sin(a), c = cos(a);
    return (float3)(v.x, v.y * c - v.z * s, v.y * s + v.z * c);
}

inline float3 rotate_y(float3 v, float a) {
    float s = sin(a), c = cos(a);
    return (float3)(v.x * c + v.z * s, v.y, -v.x * s + v.z * c);
}

inline float3 texel(__global const float* sky, int sw, int sh, int x, int y) {
    x = clamp(x, 0, sw - 1);
    y = clamp(y, 0, sh - 1);
    return vload3(y * sw + x, sky);
}

inline float3 sample_sky(__global const float* sky, int sw, int sh, float u, float v) {
    float fx = clamp(u, 0.0f, 1.0f) * sw - 0.5f;
    float fy = (1.0f - clamp(v, 0.0f, 1.0f)) * sh - 0.5f;
    int x0 = (int)floor(fx);
    int y0 = (int)floor(fy);
    float tx = fx - x0;
    float ty = fy - y0;
    float3 top = mix(texel(sky, sw, sh, x0, y0), texel(sky, sw, sh, x0 + 1, y0), tx);
    float3 bottom = mix(texel(sky, sw, sh, x0, y0 + 1), texel(sky, sw, sh, x0 + 1, y0 + 1), tx);
    return mix(top, bottom, ty);
}

float3 background(float3 ray, __global const float* sky, int sw, int sh) {
    float2 xy = ray.xy;
    float r = length(xy);
    float lens = exp(-LENS_STRENGTH * r * r);
    float u = clamp(mix(xy.x * 0.5f + 0.5f, 0.5f, lens), 0.0f, 1.0f);
    float v = clamp(mix(xy.y * 0.5f + 0.5f, 0.5f, lens), 0.0f, 1.0f);
    float3 col = clamp(sample_sky(sky, sw, sh, u, v), 0.0f, 1.0f);
    col = pow(col * (1.0f - smoothstep(VIGNETTE_INNER, VIGNETTE_OUTER, r)), (float3)(LIFT));

    float b = value_noise(xy * 3.0f, STAR_FREQ);
    b = clamp(pow(b, STAR_POWER) * STAR_GAIN, 0.0f, 1.0f);
    if (b > 0.0f) {
        float t = value_noise(xy * 2.0f, TINT_FREQ);
        col += mix((float3)(1.0f, 0.6f, 0.2f), (float3)(0.2f, 0.6f, 1.0f), t) * b;
    }
    return clamp(col, 0.0f, 1.0f);
}

float4 shade_disk(float3 ray, float3 zero, float time, float size, float speed, int slabs_n, float3 disk_color) {
    float slabs = (float)slabs_n;
    float inv = 1.0f / size;
    float zero_len = hypot(zero.x, zero.z);
    float vertical = fmax(fabs(ray.y), MIN_RAY_VERTICAL);
    float dist = fmin(1.0f, zero_len * inv * 0.5f) * size * 0.4f / slabs / vertical;
    float3 pos = zero - ray * (dist * slabs * 0.5f);

    float tx = 0.0f, tz = 0.0f;
    if (zero_len > 0.0f) {
        tx = -zero.z / zero_len;
        tz = zero.x / zero_len;
    }
    float parallel = (ray.x * tx + ray.z * tz) / sqrt(fmax(zero_len, size * 0.01f)) * 0.5f;
    float red_shift = clamp((parallel + 0.3f) * (parallel + 0.3f), 0.0f, 1.0f);

    float dis_mix = clamp((zero_len - size * 2.0f) * inv * 0.24f, 0.0f, 1.0f);
    float3 cold = (float3)(0.5f, 0.13f, 0.02f) * 0.2f;
    float3 inside = mix(disk_color, cold, dis_mix) *
        mix((float3)(0.4f, 0.2f, 0.1f), (float3)(1.6f, 2.4f, 4.0f), red_shift) * 1.25f;
    red_shift = clamp((red_shift + 0.12f) * (red_shift + 0.12f), 0.0f, 1.0f);

    float rot = fmod(time * speed, MAX_ROTATION);
    float sin_rot = sin(rot), cos_rot = cos(rot);
    float mid = (slabs - 1.0f) * 0.5f;

    float3 rgb = (float3)(0.0f);
    float a = 0.0f;
    for (int i = 0; i < slabs_n; i++) {
        float fi = (float)i;
        pos += ray * dist;
        float intensity = clamp(1.0f - fabs((fi - mid) / slabs * 2.0f), 0.0f, 1.0f);
        float l = hypot(pos.x, pos.z);
        float dist_mult = clamp((l - size * 0.75f) * inv * 1.5f, 0.0f, 1.0f) *
            clamp((size * 10.0f - l) * inv * 0.2f, 0.0f, 1.0f);
        dist_mult *= dist_mult;
        float u = l + time * size * 0.3f + intensity * size * 0.2f;

        float rx = -pos.z * sin_rot + pos.x * cos_rot;
        float ry = pos.x * sin_rot + pos.z * cos_rot;
        if (fabs(ry) < 1e-9f) {
            ry = copysign(1e-9f, ry);
        }
        float angle = 0.02f * atan(fabs(rx / ry));
        float2 p = (float2)(angle, u * inv * 0.05f);
        float noise = value_noise(p, DISK_NOISE_FREQ) * 0.66f + value_noise(p, DISK_NOISE_FREQ * 2.0f) * 0.33f;

        float extra = noise * (1.0f - clamp(fi / slabs * 2.0f - 1.0f, 0.0f, 1.0f));
        float alpha = clamp(noise * (intensity + extra) * (inv * 10.0f + 0.01f) * dist * dist_mult, 0.0f, 1.0f);
        float3 col = mix((float3)(0.3f, 0.2f, 0.15f) * inside, inside, fmin(1.0f, intensity * 2.0f)) * 2.0f;
        rgb = clamp(col * alpha + rgb * (1.0f - alpha), 0.0f, 1.0f);
        a = clamp(a + alpha * (1.0f - a), 0.0f, 1.0f);

        float lr = fmax(l * inv, 0.75f);
        rgb += red_shift * (intensity + 0.5f) / slabs * 100.0f * dist_mult / (lr * lr);
    }
    rgb = clamp(rgb - 0.005f, 0.0f, 1.0f);
    return (float4)(rgb, a);
}

inline float3 screen_ray(float w, float h, float x, float y) {
    float dx = x - w * 0.5f;
    float dy = y - h * 0.5f;
    float rx = dx * 0.985f + dy * 0.174f - 0.06f * w;
    float ry = dy * 0.985f - dx * 0.174f + 0.12f * h;
    return normalize((float3)(rx / w, ry / w, 1.0f));
}

camera_t make_camera(float w, float h, float time, float pointer_x, float pointer_y) {
    camera_t c;
    c.width = w > 0.0f ? w : 1.0f;
    c.height = h > 0.0f ? h : 1.0f;
    float mx = clamp(pointer_x / c.width, 0.0f, 1.0f);
    float my = clamp(pointer_y / c.height, 0.0f, 1.0f);
    float ny = 2.0f * my - 1.0f;
    float dist = 3.5f + 5.0f * ny * ny;
    float3 center = screen_ray(c.width, c.height, c.width * 0.5f, c.height * 0.5f);
    float weight = 3.5f / dist;
    c.fix_yaw = -atan2(center.x, center.z) * weight;
    c.fix_pitch = atan2(center.y, hypot(center.x, center.z)) * weight;
    c.pitch = 0.1f + ny * PI_F;
    c.yaw = time * 0.1f + (2.0f * mx - 1.0f) * PI_F;
    c.pos = rotate_y(rotate_x((float3)(0.0f, 0.0f, -dist), c.pitch), c.yaw);
    return c;
}

inline float3 camera_ray(const camera_t* c, float x, float y) {
    float3 r = screen_ray(c->width, c->height, x, y);
    r = rotate_x(rotate_y(r, c->fix_yaw), c->fix_pitch);
    return normalize(rotate_y(rotate_x(r, c->pitch), c->yaw));
}

// state: 1 absorbed, 2 escaped, 4 unterminated.
float3 trace(float3 pos, float3 ray, float time, float size, float speed, float strength,
    int slabs, int outer_steps, int inner_steps, float3 disk_color,
    __global const float* sky, int sw, int sh, int* state, int* disk_hits)
{
    float3 rgb = (float3)(0.0f);
    float a = 0.0f;
    for (int outer = 0; outer < outer_steps; outer++) {
        for (int inner = 0; inner < inner_steps; inner++) {
            float dot_pos = fmax(dot(pos, pos), MIN_DIST_SQR);
            float inv_dist = rsqrt(dot_pos);
            float cent_dist = dot_pos * inv_dist;
            float step = 0.92f * fabs(pos.y) / fmax(fabs(ray.y), MIN_VERTICAL);
            float far_limit = cent_dist * 0.5f;
            float close_limit = cent_dist * 0.1f + 0.05f * cent_dist * cent_dist / size;
            step = fmin(step, fmin(far_limit, close_limit));
            float bend = step * inv_dist * inv_dist * size * strength;
            ray = normalize(ray - pos * (bend * inv_dist));
            pos += ray * step;
        }
        float dist = length(pos);
        if (dist < size * ABSORB_RADIUS) {
            *state = 1;
            return rgb * a;
        }
        if (dist > size * ESCAPE_RADIUS) {
            *state = 2;
            return rgb * a + background(ray, sky, sw, sh) * (1.0f - a);
        }
        if (fabs(pos.y) <= size * DISK_BAND) {
            float4 disk = shade_disk(ray, pos, time, size, speed, slabs, disk_color);
            pos.y = 0.0f;
            pos += ray * fabs(size * DISK_NUDGE / fmax(fabs(ray.y), MIN_VERTICAL));
            rgb += disk.xyz * (1.0f - a);
            a += disk.w * (1.0f - a);
            (*disk_hits)++;
        }
    }
    *state = 4;
    return rgb * a + background(ray, sky, sw, sh) * (1.0f - a);
}

inline float3 tonemap(float3 c, float gamma) {
    c = (float3)(isfinite(c.x) ? c.x : 0.0f, isfinite(c.y) ? c.y : 0.0f, isfinite(c.z) ? c.z : 0.0f);
    return pow(clamp(c, 0.0f, 1.0f), (float3)(gamma));
}

__kernel void lens_frame(
    const int width,
    const int height,
    const float time,
    const float pointer_x,
    const float pointer_y,
    const float size,
    const float speed,
    const float strength,
    const int slabs,
    const int outer_steps,
    const int inner_steps,
    const float gamma,
    const float disk_r,
    const float disk_g,
    const float disk_b,
    const int supersample,
    __global const float* sky,
    const int sky_w,
    const int sky_h,
    __global uchar* pixels,
    __global int* tallies)
{
    int idx = get_global_id(0);
    if (idx >= width * height) {
        return;
    }
    int x = idx % width;
    int row = idx / width;
    float px = (float)x + 0.5f;
    float py = (float)(height - row) - 0.5f;

    camera_t cam = make_camera((float)width, (float)height, time, pointer_x, pointer_y);
    float3 disk_color = (float3)(disk_r, disk_g, disk_b);
    int ss = max(supersample, 1);
    float n = (float)ss;
    float3 sum = (float3)(0.0f);
    int counts[5] = {0, 0, 0, 0, 0};
    int hits = 0;
    for (int j = 0; j < ss; j++) {
        for (int i = 0; i < ss; i++) {
            float sx = px - 0.5f + ((float)i + 0.5f) / n;
            float sy = py - 0.5f + ((float)j + 0.5f) / n;
            int state = 0;
            float3 c = trace(cam.pos, camera_ray(&cam, sx, sy), time, size, speed, strength,
                slabs, outer_steps, inner_steps, disk_color, sky, sky_w, sky_h, &state, &hits);
            counts[state]++;
            sum += tonemap(c, gamma);
        }
    }
    float3 c = clamp(sum / (n * n), 0.0f, 1.0f);
    int base = idx * 4;
    pixels[base] = (uchar)(c.x * 255.0f + 0.5f);
    pixels[base + 1] = (uchar)(c.y * 255.0f + 0.5f);
    pixels[base + 2] = (uchar)(c.z * 255.0f + 0.5f);
    pixels[base + 3] = 255;
    tallies[base] = counts[1];
    tallies[base + 1] = counts[2];
    tallies[base + 2] = counts[4];
    tallies[base + 3] = hits;
}`

func newOpenCLLensRenderer(sky lensing.Sampler) (*openCLLensRenderer, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	device := pickDevice(platforms, cl.DeviceTypeGPU)
	if device == nil {
		device = pickDevice(platforms, cl.DeviceTypeCPU)
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	r := &openCLLensRenderer{deviceName: device.Name()}
	if err := r.init(device, sky); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func pickDevice(platforms []*cl.Platform, kind cl.DeviceType) *cl.Device {
	for _, p := range platforms {
		devices, err := p.GetDevices(kind)
		if err != nil && err != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	return nil
}

// init builds the program and uploads the baked background. Partially
// created objects are released by Close.
func (r *openCLLensRenderer) init(device *cl.Device, sky lensing.Sampler) error {
	var err error
	if r.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return fmt.Errorf("creating OpenCL context: %w", err)
	}
	if r.queue, err = r.context.CreateCommandQueue(device, 0); err != nil {
		return fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if r.program, err = r.context.CreateProgramWithSource([]string{lensKernelSource}); err != nil {
		return fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := r.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		if buildErr, ok := err.(cl.BuildError); ok {
			return fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return fmt.Errorf("building OpenCL program: %w", err)
	}
	if r.kernel, err = r.program.CreateKernel("lens_frame"); err != nil {
		return fmt.Errorf("creating OpenCL kernel: %w", err)
	}

	r.skyWidth, r.skyHeight = bakedSkyWidth, bakedSkyHeight
	if img, ok := sky.(*texture.Image); ok {
		r.skyWidth, r.skyHeight = img.Width, img.Height
	}
	baked := texture.Bake(sky, r.skyWidth, r.skyHeight)
	if r.skyBuf, err = r.context.CreateEmptyBuffer(cl.MemReadOnly, len(baked)*int(unsafe.Sizeof(float32(0)))); err != nil {
		return fmt.Errorf("allocating background buffer: %w", err)
	}
	if _, err := r.queue.EnqueueWriteBufferFloat32(r.skyBuf, true, 0, baked, nil); err != nil {
		return fmt.Errorf("writing background buffer: %w", err)
	}
	return nil
}

// ensureSurface reallocates the output buffers when the surface changes.
func (r *openCLLensRenderer) ensureSurface(width, height int) error {
	if r.pixelBuf != nil && r.width == width && r.height == height {
		return nil
	}
	r.releaseSurface()
	size := width * height
	var err error
	if r.pixelBuf, err = r.context.CreateEmptyBuffer(cl.MemWriteOnly, size*4); err != nil {
		return fmt.Errorf("allocating pixel buffer: %w", err)
	}
	if r.tallyBuf, err = r.context.CreateEmptyBuffer(cl.MemWriteOnly, size*4*int(unsafe.Sizeof(int32(0)))); err != nil {
		return fmt.Errorf("allocating tally buffer: %w", err)
	}
	r.tallies = make([]int32, size*4)
	r.width, r.height = width, height
	return nil
}

// Render shades one frame on the device and reads it back into pix.
func (r *openCLLensRenderer) Render(ctx context.Context, f lensing.Frame, pix []byte, width, height int) (lensing.Tally, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return lensing.Tally{}, fmt.Errorf("pixel buffer of %d bytes does not match %dx%d", len(pix), width, height)
	}
	if err := ctx.Err(); err != nil {
		return lensing.Tally{}, err
	}
	if err := r.ensureSurface(width, height); err != nil {
		return lensing.Tally{}, err
	}
	p := f.Params
	if err := r.kernel.SetArgs(
		int32(width),
		int32(height),
		float32(f.Time),
		float32(f.PointerX),
		float32(f.PointerY),
		float32(p.Size),
		float32(p.Speed),
		float32(p.BendStrength),
		int32(p.DiskSlabs),
		int32(p.OuterSteps),
		int32(p.InnerSteps),
		float32(p.Gamma),
		float32(f.DiskColor.X),
		float32(f.DiskColor.Y),
		float32(f.DiskColor.Z),
		int32(max(1, f.Supersample)),
		r.skyBuf,
		int32(r.skyWidth),
		int32(r.skyHeight),
		r.pixelBuf,
		r.tallyBuf,
	); err != nil {
		return lensing.Tally{}, fmt.Errorf("setting kernel arguments: %w", err)
	}
	if _, err := r.queue.EnqueueNDRangeKernel(r.kernel, nil, []int{width * height}, nil, nil); err != nil {
		return lensing.Tally{}, fmt.Errorf("enqueueing kernel: %w", err)
	}
	if _, err := r.queue.EnqueueReadBuffer(r.pixelBuf, true, 0, len(pix), unsafe.Pointer(&pix[0]), nil); err != nil {
		return lensing.Tally{}, fmt.Errorf("reading pixel buffer: %w", err)
	}
	tallyBytes := len(r.tallies) * int(unsafe.Sizeof(int32(0)))
	if _, err := r.queue.EnqueueReadBuffer(r.tallyBuf, true, 0, tallyBytes, unsafe.Pointer(&r.tallies[0]), nil); err != nil {
		return lensing.Tally{}, fmt.Errorf("reading tally buffer: %w", err)
	}
	var t lensing.Tally
	for i := 0; i < len(r.tallies); i += 4 {
		t.Absorbed += int(r.tallies[i])
		t.Escaped += int(r.tallies[i+1])
		t.Unterminated += int(r.tallies[i+2])
		t.DiskHits += int(r.tallies[i+3])
	}
	return t, nil
}

func (r *openCLLensRenderer) releaseSurface() {
	if r.pixelBuf != nil {
		r.pixelBuf.Release()
		r.pixelBuf = nil
	}
	if r.tallyBuf != nil {
		r.tallyBuf.Release()
		r.tallyBuf = nil
	}
}

func (r *openCLLensRenderer) Close() {
	r.releaseSurface()
	if r.skyBuf != nil {
		r.skyBuf.Release()
		r.skyBuf = nil
	}
	if r.kernel != nil {
		r.kernel.Release()
		r.kernel = nil
	}
	if r.program != nil {
		r.program.Release()
		r.program = nil
	}
	if r.queue != nil {
		r.queue.Release()
		r.queue = nil
	}
	if r.context != nil {
		r.context.Release()
		r.context = nil
	}
}

func (r *openCLLensRenderer) DeviceName() string {
	return r.deviceName
}
